// Package download streams HTTP response bodies to disk with optional
// checksum validation and progress reporting.
//
// [Store] writes a body to a new file inside a directory and returns the
// file's path. With [WithDestination] the file is renamed onto a fixed
// path once it is complete:
//
//	path, err := download.Store(resp.Body, resp.ContentLength, dir, logger,
//		download.WithChecksum(sha256.New, expected),
//	)
//
// A partially written file never survives a failed download.
package download
