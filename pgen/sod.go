package pgen

import (
	"math"

	"github.com/notargets/gomhd/InputParameters"
	"github.com/notargets/gomhd/eos"
	"github.com/notargets/gomhd/mesh"
)

// SodShockTube initializes the classic shock tube: a diaphragm at xdisc
// separating a dense, high pressure left state from the right state
func SodShockTube(m *mesh.Mesh, e eos.EOS, ip *InputParameters.InputParameters) {
	var (
		xdisc = ip.Param("xdisc", 0.5)
		rhol  = ip.Param("rhol", 1)
		pl    = ip.Param("pl", 1)
		rhor  = ip.Param("rhor", 0.125)
		pr    = ip.Param("pr", 0.1)
	)
	forEachInterior(m, func(prim mesh.FieldArray, k, j, i int, x, y, z float64) {
		if x < xdisc {
			setState(prim, k, j, i, rhol, 0, 0, 0, pl)
		} else {
			setState(prim, k, j, i, rhor, 0, 0, 0, pr)
		}
	})
}

// SodExact evaluates the self-similar solution of the standard Sod problem
// (diaphragm at x0=0.5, left state 1/1, right state 0.125/0.1, gas at rest)
// at time t on the given cell centers
func SodExact(gamma, t float64, x []float64) (rho, p, u []float64) {
	var (
		x0, rhol, pl = 0.5, 1.0, 1.0
		rhor, pr     = 0.125, 0.1
		mu           = math.Sqrt((gamma - 1) / (gamma + 1))
		mu2          = mu * mu
		cl           = math.Sqrt(gamma * pl / rhol)

		pPost   = fzero(func(pp float64) float64 { return sodFunc(pp, gamma, rhor, pr) }, math.Pi)
		vPost   = 2 * (math.Sqrt(gamma) / (gamma - 1)) * (1 - math.Pow(pPost, (gamma-1)/(2*gamma)))
		rhoPost = rhor * ((pPost/pr + mu2) / (1 + mu2*(pPost/pr)))
		vShock  = vPost * (rhoPost / rhor) / (rhoPost/rhor - 1)
		rhoMid  = rhol * math.Pow(pPost/pl, 1/gamma)
		c2      = cl - 0.5*(gamma-1)*vPost
		x1, x2  = x0 - cl*t, x0 + t*(vPost-c2)
		x3, x4  = x0 + vPost*t, x0 + vShock*t
	)
	rho = make([]float64, len(x))
	p = make([]float64, len(x))
	u = make([]float64, len(x))
	for n, xi := range x {
		switch {
		case xi < x1:
			rho[n], p[n], u[n] = rhol, pl, 0
		case xi <= x2:
			// rarefaction fan
			c := mu2*((x0-xi)/t) + (1-mu2)*cl
			rho[n] = rhol * math.Pow(c/cl, 2/(gamma-1))
			p[n] = pl * math.Pow(rho[n]/rhol, gamma)
			u[n] = (1 - mu2) * ((xi-x0)/t + cl)
		case xi <= x3:
			rho[n], p[n], u[n] = rhoMid, pPost, vPost
		case xi <= x4:
			rho[n], p[n], u[n] = rhoPost, pPost, vPost
		default:
			rho[n], p[n], u[n] = rhor, pr, 0
		}
	}
	return
}

// sodFunc is the shock-tube pressure relation whose root is the post-shock
// pressure
func sodFunc(p, gamma, rhor, pr float64) float64 {
	var (
		mu  = math.Sqrt((gamma - 1) / (gamma + 1))
		mu2 = mu * mu
	)
	return (p-pr)*math.Sqrt((1-mu2)/(rhor*(p+mu2*pr))) -
		2*(math.Sqrt(gamma)/(gamma-1))*(1-math.Pow(p, (gamma-1)/(2*gamma)))
}

// fzero finds a root by secant iteration from the given start point
func fzero(f func(float64) float64, start float64) float64 {
	var (
		tol      = 1.0e-7
		startOld = start / 2
		res      = f(startOld)
	)
	for math.Abs(res) > tol {
		resNew := f(start)
		deriv := (start - startOld) / (resNew - res)
		startNew := math.Abs(start - 0.01*f(start)/deriv)
		startOld = start
		start = startNew
		res = resNew
	}
	return start
}
