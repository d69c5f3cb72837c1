// Package lms is the remote data source adapter for the third-party LMS.
//
// A Client is built once from an explicit Config and carries precomputed
// authentication headers, a per-request timeout and a request rate limiter. It never
// retries: a failed page aborts the listing it belongs to and the caller keeps what
// was already read.
//
// Listings are exposed as lazy iterators driven by the Pager state machine:
//
//	it := client.Iterate(lms.Students)
//	for it.Next(ctx) {
//		handle(it.Record())
//	}
//	if it.State() == lms.Aborted {
//		// partial listing; it.Err() holds the cause
//	}
//
// Point lookups (FeeSummary, RegistrationData, CourseDetails, StudentReports) and the
// ConsumeCredits mutation wrap ErrUnavailable or ErrRejected around transport
// failures. Every operation returns ErrNotConfigured without touching the network
// when credentials are missing.
package lms
