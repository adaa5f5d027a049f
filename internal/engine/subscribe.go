package engine

import "sync"

type subscriber struct {
	ch   chan Snapshot
	once sync.Once
}

// Subscribe returns a channel that receives the current snapshot right away
// and then every published one. A slow reader only ever sees the latest
// snapshot; intermediate ones are dropped. Call cancel to unsubscribe, which
// closes the channel.
func (s *Service) Subscribe() (<-chan Snapshot, func()) {
	sub := &subscriber{ch: make(chan Snapshot, 1)}

	s.subsMu.Lock()
	s.subs[sub] = struct{}{}
	sub.ch <- s.Snapshot()
	s.subsMu.Unlock()

	cancel := func() {
		sub.once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, sub)
			close(sub.ch)
			s.subsMu.Unlock()
		})
	}
	return sub.ch, cancel
}

func (s *Service) publish(snap Snapshot) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for sub := range s.subs {
		select {
		case sub.ch <- snap:
			continue
		default:
		}
		// Replace the stale snapshot still sitting in the buffer.
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- snap:
		default:
		}
	}
}
