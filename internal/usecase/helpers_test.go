package usecase

func (s *FollowUpScheduler) Pending(phone string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.states[phone]
	return ok
}

func (s *FollowUpScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
