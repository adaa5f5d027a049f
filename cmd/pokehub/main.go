package main

import "pokehub/cmd/pokehub/root"

func main() {
	root.Execute()
}
