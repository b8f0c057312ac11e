// Package transfer moves serialized columns between goroutines.
//
// A Pipe is a bounded in-process queue of column.SerializedForm values.
// Send takes ownership of the form it is given: on success the caller's form
// is cleared, so the sender cannot keep writing to buffers the receiver now
// owns. With WithFraming the form is flattened into a frame (see package
// section) before it is queued and parsed again on Receive, which exercises
// the same path a cross-process transport would use.
//
//	p, _ := transfer.NewPipe(transfer.WithCapacity(4))
//	go func() {
//		form, _ := c.ToSerializedForm()
//		_ = p.Send(ctx, &form)
//		p.Close()
//	}()
//	form, err := p.Receive(ctx)
package transfer
