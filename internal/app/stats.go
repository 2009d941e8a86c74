package service

func (s *Service) rememberImport(sum *Summary) {
	s.mu.Lock()
	s.lastImport = sum
	s.mu.Unlock()
}

func (s *Service) rememberRecompute(sum *RecomputeSummary) {
	s.mu.Lock()
	s.lastRecompute = sum
	s.mu.Unlock()
}

// GetStats returns console statistics for the status endpoint.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]interface{}{}
	if li := s.lastImport; li != nil {
		out["last_import"] = map[string]interface{}{
			"run_id":             li.RunID,
			"source":             li.Source,
			"event":              li.Event,
			"attempted":          li.Attempted,
			"written":            li.Written,
			"skipped_duplicate":  li.SkippedDuplicate,
			"skipped_unresolved": li.SkippedUnresolved,
			"failed":             li.Failed,
			"dry_run":            li.DryRun,
		}
	}
	if lr := s.lastRecompute; lr != nil {
		out["last_recompute"] = map[string]interface{}{
			"run_id":  lr.RunID,
			"members": lr.Members,
			"patched": lr.Patched,
			"failed":  lr.Failed,
		}
	}
	return out
}
