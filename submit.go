package formstate

import "context"

// Submitter is the transport collaborator: it carries the form data to the
// server and returns the action result. The context it receives is cancelled
// by the SubmitAbort policy; implementations must wire it into their
// underlying request.
type Submitter interface {
	Submit(ctx context.Context, data *Node) (*SubmitResult, error)
}

// inflightSubmit is the cancellable handle of one in-flight submission.
type inflightSubmit struct {
	cancel context.CancelFunc
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, data *Node) (*SubmitResult, error)

func (f SubmitterFunc) Submit(ctx context.Context, data *Node) (*SubmitResult, error) {
	return f(ctx, data)
}

// SubmitResult is the normalized action result returned by the server.
type SubmitResult struct {
	Valid bool
	// Data is the server's view of the form data, applied on return.
	Data *Node
	// Issues carries server-side validation findings when Valid is false.
	Issues Issues
	// Message is the status message accompanying the result.
	Message any
}

// Submit runs one submission cycle: client-side validation gate (when a
// validator is configured), concurrent-submit policy, transport call, and
// result application. Server-returned data is applied with TaintIgnore so it
// never wipes taint state; server issues are displayed in full.
//
// Under SubmitPrevent a second call while one is in flight returns
// ErrSubmitInFlight. Under SubmitAbort it cancels the in-flight transport
// context first.
func (f *Form) Submit(ctx context.Context, s Submitter) (*SubmitResult, error) {
	f.mu.Lock()
	switch f.opts.Submits {
	case SubmitPrevent:
		if f.inflight != nil {
			f.mu.Unlock()
			return nil, ErrSubmitInFlight
		}
	case SubmitAbort:
		if f.inflight != nil {
			f.inflight.cancel()
			f.inflight = nil
		}
	}
	v := f.opts.Validator
	f.mu.Unlock()

	// client validation gate: an invalid form displays everything and never
	// reaches the transport
	if v != nil {
		res, err := v.Validate(ctx, f.Data())
		if err != nil {
			return nil, err
		}
		if !res.Valid {
			ev := ChangeEvent{Type: EventSubmit}
			f.queue.enqueue(func() { f.applyResult(res, ev, true) })
			f.queue.drain()
			return &SubmitResult{Valid: false, Issues: res.Issues}, nil
		}
	}

	sctx, cancel := context.WithCancel(ctx)
	mine := &inflightSubmit{cancel: cancel}
	f.mu.Lock()
	f.inflight = mine
	f.mu.Unlock()
	defer func() {
		cancel()
		f.mu.Lock()
		if f.inflight == mine {
			f.inflight = nil
		}
		f.mu.Unlock()
	}()

	result, err := s.Submit(sctx, f.Data())
	if err != nil {
		return nil, err
	}
	f.applySubmitResult(result)
	return result, nil
}

func (f *Form) applySubmitResult(result *SubmitResult) {
	if result == nil {
		return
	}
	if result.Data != nil {
		// server data must not affect taint
		f.Update(result.Data, TaintIgnore)
	}
	if result.Valid {
		// a successful action makes the returned data the new clean baseline
		f.mu.Lock()
		f.taint.SetClean(f.data)
		f.errors = Mapping()
		f.message = result.Message
		tainted, errs := f.taint.State().Clone(), f.errors
		f.mu.Unlock()
		f.notify(TreeClean, f.Data())
		f.notify(TreeTainted, tainted)
		f.notify(TreeErrors, errs)
		return
	}
	f.SetMessage(result.Message)
	ev := ChangeEvent{Type: EventSubmit}
	f.queue.enqueue(func() {
		f.applyResult(Result{Valid: false, Issues: result.Issues}, ev, true)
	})
	f.queue.drain()
}
