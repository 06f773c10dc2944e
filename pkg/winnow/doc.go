// Package winnow runs an active-learning labeling session against a code
// authorship classifier.
//
// Quick start:
//
//	s, err := winnow.New(winnow.WithEndpoint("http://localhost:8004"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	if err := s.Initialize(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	s.Select(12)
//	s.Reject(40)
//	outcome, err := s.Retrain(ctx)
//
// A Session is safe for concurrent use. Retrain results that arrive after a
// newer request was issued are discarded.
package winnow
