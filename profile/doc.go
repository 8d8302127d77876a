// Package profile maintains per-platform function call-count baselines for
// performance regression detection.
//
// The main purpose is to detect changes in call counts for measured code
// paths; the actual number is not as important. Counts are stored in a
// line-oriented text file keyed by test identifier and platform key, meant
// to be version-controlled so unexpected changes are caught in review.
//
// A typical check wraps the measured region with a counting driver:
//
//	stats, _ := profile.Open("profiles.txt", profile.DefaultEnv("sqlite", "modernc"))
//	cd := sql.NewCountingDriver(drv)
//	err := stats.CountFunctions("TestUserQuery", cd, func() error {
//	    return runQueries(cd)
//	})
//
// Tests without a recorded baseline are skipped (see IsSkip); running with
// QUILL_WRITE_PROFILES set records them. QUILL_FORCE_WRITE_PROFILES
// re-baselines mismatches instead of failing.
package profile
