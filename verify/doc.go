// Package verify compares computed and observed layouts against expected literals.
//
// Comparisons are pure: Equal and BytesEqual return a Result instead of failing
// on the spot. A Suite runs every check, never stopping at the first mismatch, and
// collects the outcomes in a Report that the caller turns into an exit status.
//
//	suite := verify.DefaultSuite(verify.Options{})
//	report, err := suite.Run(ctx)
//	if err != nil {
//		return err
//	}
//	if !report.OK() {
//		return report.Err()
//	}
//
// Byte comparisons only ever cover declared fields: padding contents are
// unspecified.
package verify
