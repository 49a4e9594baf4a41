// Package orbital evaluates closed-form hydrogen-like wavefunctions.
//
// The set of supported orbitals is a closed enumeration:
//
//   - [Selector]: the (n, l, label) tuple chosen by a caller
//   - [Orbital]: one defined formula, obtained through [Lookup] or [ParseName]
//   - [Evaluate]: selector-checked amplitude at a spherical point
//
// Coordinates follow the sampler's convention: theta is the azimuth in
// [0, 2π) and phi is the polar angle in [0, π]. Radii are scaled by [A0],
// an arbitrary length unit rather than the Bohr radius in SI.
//
// # Example
//
//	orb, err := orbital.Lookup(orbital.Selector{N: 2, L: 1, Label: orbital.LabelZ})
//	if err != nil {
//	    return err
//	}
//	psi := orb.Psi(rho, theta, phi)
package orbital
