package service

// subscriberBuffer is how many snapshots a slow subscriber may lag behind
// before intermediate ones are dropped
const subscriberBuffer = 16

// Subscribe streams status snapshots of a scan. The current snapshot is
// delivered first; the channel is closed after the terminal snapshot or when
// cancel is called. Intermediate snapshots may be dropped for a slow reader,
// the terminal one never is.
func (s *Service) Subscribe(id string) (<-chan ScanStatus, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.scans[id]
	if !ok {
		return nil, nil, ErrScanNotFound
	}

	ch := make(chan ScanStatus, subscriberBuffer)
	ch <- entry.status
	if entry.status.Status.Terminal() {
		close(ch)
		return ch, func() {}, nil
	}

	key := entry.nextSub
	entry.nextSub++
	entry.subscribers[key] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := entry.subscribers[key]; ok {
			delete(entry.subscribers, key)
			close(sub)
		}
	}
	return ch, cancel, nil
}

// broadcast sends the current snapshot to every subscriber. Callers hold s.mu.
func (e *scanEntry) broadcast() {
	snapshot := e.status
	terminal := snapshot.Status.Terminal()

	for key, ch := range e.subscribers {
		if !terminal {
			select {
			case ch <- snapshot:
			default:
			}
			continue
		}

		// make room for the terminal snapshot by dropping the oldest pending one
		for delivered := false; !delivered; {
			select {
			case ch <- snapshot:
				delivered = true
			default:
				select {
				case <-ch:
				default:
				}
			}
		}
		close(ch)
		delete(e.subscribers, key)
	}
}
