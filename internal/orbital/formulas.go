package orbital

import "math"

// A0 is the radial length scale shared by every formula.
const A0 = 529.0

var (
	a0Pow = math.Pow(A0, 1.5)

	norm1s = 1 / (math.Sqrt(math.Pi) * a0Pow)
	norm2  = 1 / (4 * math.Sqrt(2*math.Pi) * a0Pow)
	norm3s = 1 / (81 * math.Sqrt(3*math.Pi) * a0Pow)
	norm3p = math.Sqrt(2) / (81 * math.Sqrt(math.Pi) * a0Pow)
	norm3d = math.Sqrt(2) / (81 * math.Sqrt(math.Pi) * a0Pow)
	norm3e = 1 / (81 * math.Sqrt(2*math.Pi) * a0Pow)
)

func psi1s(rho, theta, phi float64) float64 {
	sigma := rho / A0
	return norm1s * math.Exp(-sigma)
}

func psi2s(rho, theta, phi float64) float64 {
	sigma := rho / A0
	return norm2 * (2 - sigma) * math.Exp(-sigma/2)
}

// radial2p is the n=2, l=1 radial factor.
func radial2p(rho float64) float64 {
	sigma := rho / A0
	return norm2 * sigma * math.Exp(-sigma/2)
}

func psi2px(rho, theta, phi float64) float64 {
	return radial2p(rho) * math.Sin(phi) * math.Cos(theta)
}

func psi2py(rho, theta, phi float64) float64 {
	return radial2p(rho) * math.Sin(phi) * math.Sin(theta)
}

func psi2pz(rho, theta, phi float64) float64 {
	return radial2p(rho) * math.Cos(phi)
}

func psi3s(rho, theta, phi float64) float64 {
	sigma := rho / A0
	return norm3s * (27 - 18*sigma + 2*math.Pow(sigma, 2)) * math.Exp(-sigma/3)
}

// radial3p is the n=3, l=1 radial factor.
func radial3p(rho float64) float64 {
	sigma := rho / A0
	return norm3p * (6*sigma - math.Pow(sigma, 2)) * math.Exp(-sigma/3)
}

func psi3px(rho, theta, phi float64) float64 {
	return radial3p(rho) * math.Sin(phi) * math.Cos(theta)
}

func psi3py(rho, theta, phi float64) float64 {
	return radial3p(rho) * math.Sin(phi) * math.Sin(theta)
}

func psi3pz(rho, theta, phi float64) float64 {
	return radial3p(rho) * math.Cos(phi)
}

// psi3dz2 keeps the literal form of the reference formula; tests pin it.
func psi3dz2(rho, theta, phi float64) float64 {
	return (1 / ((81 * math.Sqrt(6*math.Pi)) * math.Pow(529, 1.5))) * math.Pow(rho/529, 2) * math.Exp((rho/529)/-3) * (3*math.Pow(math.Cos(phi), 2) - 1)
}

// radial3d is the n=3, l=2 radial factor without normalization.
func radial3d(rho float64) float64 {
	sigma := rho / A0
	return math.Pow(sigma, 2) * math.Exp(-sigma/3)
}

func psi3dxz(rho, theta, phi float64) float64 {
	return norm3d * radial3d(rho) * math.Sin(phi) * math.Cos(phi) * math.Cos(theta)
}

func psi3dyz(rho, theta, phi float64) float64 {
	return norm3d * radial3d(rho) * math.Sin(phi) * math.Cos(phi) * math.Sin(theta)
}

func psi3dxy(rho, theta, phi float64) float64 {
	return norm3e * radial3d(rho) * math.Pow(math.Sin(phi), 2) * math.Sin(2*theta)
}

func psi3dx2y2(rho, theta, phi float64) float64 {
	return norm3e * radial3d(rho) * math.Pow(math.Sin(phi), 2) * math.Cos(2*theta)
}
