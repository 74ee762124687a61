package leetcode

// The client surfaces the shared sentinel kinds from the types package so
// callers can errors.Is against one taxonomy regardless of which layer
// failed. A rejected contest slug wraps types.ErrValidation before any
// network access. An empty ranking or contest payload wraps
// types.ErrNotFound. Transport failures, timeouts, an open breaker, and
// structurally invalid payloads all wrap types.ErrUnavailable.
