package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/orbitals/internal/orbital"
)

var orbitalInfo = map[orbital.Orbital]string{
	orbital.Orbital1s: "ground state", orbital.Orbital2s: "one radial node", orbital.Orbital2px: "dumbbell along x",
	orbital.Orbital2py: "dumbbell along y", orbital.Orbital2pz: "dumbbell along z", orbital.Orbital3s: "two radial nodes",
	orbital.Orbital3px: "lobed dumbbell x", orbital.Orbital3py: "lobed dumbbell y", orbital.Orbital3pz: "lobed dumbbell z",
	orbital.Orbital3dz2: "dumbbell with torus", orbital.Orbital3dxz: "cloverleaf xz", orbital.Orbital3dyz: "cloverleaf yz",
	orbital.Orbital3dxy: "cloverleaf xy", orbital.Orbital3dx2y2: "cloverleaf on axes",
}

// picker is the orbital selection menu opened over the viewer.
type picker struct {
	orbitals []orbital.Orbital
	cursor   int
}

func newPicker(current orbital.Orbital) *picker {
	p := &picker{orbitals: orbital.All()}
	for i, o := range p.orbitals {
		if o == current {
			p.cursor = i
		}
	}
	return p
}

// key handles one key press. It returns the chosen orbital and whether the
// menu should close.
func (p *picker) key(msg tea.KeyMsg) (orbital.Orbital, bool, bool) {
	switch msg.String() {
	case "esc", "o", "q":
		return 0, false, true
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.orbitals)-1 {
			p.cursor++
		}
	case "enter", " ":
		return p.orbitals[p.cursor], true, true
	}
	return 0, false, false
}

func (p *picker) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("SELECT ORBITAL") + "\n\n")
	for i, o := range p.orbitals {
		line := fmt.Sprintf("%-8s %-14s %s", o.Name(), o.Selector(), orbitalInfo[o])
		if i == p.cursor {
			s.WriteString(cursorStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.UnsetWidth().Render(line) + "\n")
		}
	}
	s.WriteString(helpStyle.Render("↑↓:Move  Enter:Select  Esc:Close"))
	return s.String()
}
