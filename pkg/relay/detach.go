package relay

import "context"

// detach runs task on its own goroutine. The caller does not wait for it and
// never sees its error; failures are logged. The task keeps running after
// ctx is cancelled.
func (s *Supervisor) detach(ctx context.Context, name string, task func(context.Context) error) {
	taskCtx := context.WithoutCancel(ctx)

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		defer func() {
			if r := recover(); r != nil {
				s.log.Errorf("%s panicked: %v", name, r)
			}
		}()

		if err := task(taskCtx); err != nil {
			s.log.Warnf("%s failed: %v", name, err)
			return
		}
		s.log.Debugf("%s done", name)
	}()
}

// Wait blocks until detached tasks and the messages they sent have been handled.
func (s *Supervisor) Wait() {
	s.tasks.Wait()
	s.bus.Wait()
}
