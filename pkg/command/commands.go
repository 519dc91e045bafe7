// Package command exposes the transforms as textual commands operating on
// image.Image, for front ends that read a command name and string
// arguments.
//
// Apply validates argument counts against the Commands registry, which
// also supplies the usage lines shown in errors.
package command

// ArgSpec documents one positional argument. Apply parses the values
// itself; Type and Default are only shown to users.
type ArgSpec struct {
	Name        string
	Type        string // "int", "float" or "string"
	Required    bool
	Default     string
	Description string
}

// CommandSpec is one entry of the registry: a name, its positional
// arguments in order, and a usage line for error messages.
type CommandSpec struct {
	Name        string
	Args        []ArgSpec
	Usage       string
	Description string
}

// Commands lists every command Apply accepts.
var Commands = []CommandSpec{
	{
		Name: "scale",
		Args: []ArgSpec{
			{"sx", "float", true, "", "horizontal factor, > 0"},
			{"sy", "float", true, "", "vertical factor, > 0"},
			{"interpolator", "string", false, "bilinear", "bilinear or triangular"},
		},
		Usage:       "scale <sx> <sy> [interpolator]",
		Description: "Scale by factors; output is floor(h*sy) x floor(w*sx).",
	},
	{
		Name: "rotate",
		Args: []ArgSpec{
			{"degrees", "float", true, "", "counter-clockwise degrees"},
			{"mode", "string", false, "fit", "fit grows the canvas, naive keeps it"},
			{"interpolator", "string", false, "bilinear", "bilinear or triangular"},
		},
		Usage:       "rotate <degrees> [mode] [interpolator]",
		Description: "Rotate about the centre with a zero background.",
	},
	{
		Name: "resize",
		Args: []ArgSpec{
			{"width", "int", true, "", "output width"},
			{"height", "int", true, "", "output height"},
			{"interpolator", "string", false, "bilinear", "bilinear or triangular"},
		},
		Usage:       "resize <width> <height> [interpolator]",
		Description: "Scale to an exact size.",
	},
}

// Lookup returns the registry entry for name.
func Lookup(name string) (CommandSpec, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return CommandSpec{}, false
}

// minArgs is the number of required arguments.
func (c CommandSpec) minArgs() int {
	n := 0
	for _, a := range c.Args {
		if a.Required {
			n++
		}
	}
	return n
}
