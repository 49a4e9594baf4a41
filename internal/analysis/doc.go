// Package analysis provides statistics and text views of a point cloud.
//
// The package includes tools for characterizing a published snapshot:
//
//   - [Summarize]: counts per phase, radius mean and spread, peak density
//   - [RadialProfile]: fraction of retained points per radial shell
//   - [PeakRadius]: center of the most populated shell
//   - [Project]: flatten the cloud onto a coordinate plane
//
// # Radial Structure
//
// Radial nodes show up as empty shells in the profile:
//
//	profile := analysis.RadialProfile(snap.Retained, 40, params.MaxRadius)
//	fmt.Println(asciigraph.Plot(profile))
package analysis
