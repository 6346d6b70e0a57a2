// Package testutil provides testing utilities for vessel.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Streams
//
//	rng := testutil.NewRNG(seed)
//	key := rng.Intn(1000)
//	hot := rng.Zipf(1000, 1.2) // skewed: a few keys come up often
//
// # Ownership Accounting
//
// A Tracker issues Resource values whose ops record every copy and delete
// in a roaring bitmap of live ids. After a container is released,
// Live() must be zero and DoubleFrees() must be zero:
//
//	tr := testutil.NewTracker()
//	v := vector.New(0, tr.Ops())
//	r := tr.NewRef(1)
//	v.PushMove(&r)
//	v.Reset()
//	require.Zero(t, tr.Live())
package testutil
