// ABOUTME: Audio output package for rendering decoded buffers
// ABOUTME: Provides the Engine/Node interfaces with oto and malgo backends
// Package output renders audio buffers on the local output device.
//
// An Engine is a long-lived, lazily initialized context. Each playback
// creates a Node bound to one buffer; a node is started once and then
// discarded.
//
// Example:
//
//	eng, err := output.New(output.BackendOto, output.DefaultOptions())
//	if eng.Suspended() {
//		err = eng.Resume()
//	}
//	node, err := eng.NewNode(buf)
//	node.SetRate(1.5)
//	node.OnComplete(func() { fmt.Println("done") })
//	err = node.Start()
package output
