// Package app wires the catalog service for the CLI.
//
// It opens the local store and builds the data source, persister and
// engine.Service described by Config, exposing them via the Wire struct for
// commands to use.
package app
