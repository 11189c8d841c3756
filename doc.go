// Package streamcache provides the byte-buffering core for a reliable
// stream built on an unreliable, packet-oriented transport.
//
// Two structures make up a full-duplex buffering layer for one connection.
// [SendCache] retains transmitted-but-unacknowledged bytes so they can be
// re-read for retransmission. [RecvCache] absorbs received fragments in any
// order and releases the longest contiguous run available at the current
// expected position. Both address bytes by 32-bit sequence numbers that wrap
// mod 2^32, and both are growable rings bounded by a maximum capacity.
//
// The package does no I/O and keeps no timers: framing, acknowledgment,
// retransmission scheduling, and flow-control policy belong to the caller.
//
// # Basic Usage
//
//	send, err := streamcache.NewSendCache(isn, streamcache.Options{})
//	if err != nil {
//	    // invalid Options ([ErrInvalidInput])
//	}
//
//	// Transmit path: retain what was sent, drop what was acknowledged.
//	err = send.Append(payload)        // [ErrFull] means apply backpressure
//	send.InvalidateTo(ackSeq)         // stale acks are ignored
//	lost, err := send.Get(1024)       // peek for retransmission
//
//	recv, err := streamcache.NewRecvCache(peerISN, streamcache.Options{})
//
//	// Receive path: feed every fragment, forward whatever comes back.
//	released, err := recv.Append(seq, fragment)
//	if released != nil {
//	    deliver(released)             // in-order stream bytes
//	}
//	window := recv.RemainingSize()    // headroom to advertise to the peer
//
// # Concurrency
//
// Caches are plain state containers with no internal locking:
//   - Every method requires exclusive access to the instance
//   - One connection direction owns one instance; the send and receive
//     caches of a connection are independent and need no coordination
//   - If the owning path is itself concurrent, the caller supplies the
//     mutual exclusion
//
// Nothing blocks and nothing is cancellable; every call completes in time
// bounded by the current capacity.
//
// # Error Handling
//
// Errors fall into two categories:
//
// Capacity ([ErrFull]): the write does not fit under MaxCapacity. The cache
// is unchanged; the caller chooses between backpressure and teardown.
//
// Programming errors ([ErrInsufficientData], [ErrInvalidInput]): the caller
// peeked past what is buffered, or passed invalid options or sizes.
//
// Out-of-window sequence numbers are not errors. Very late, very early, and
// duplicate data is silently ignored (visible in [SendStats]/[RecvStats]),
// which is the tolerance an unreliable transport requires.
package streamcache
