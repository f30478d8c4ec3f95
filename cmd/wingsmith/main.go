// Command wingsmith evaluates wing design scripts and exports them as STEP
// surface models, STEP wireframes or STL meshes.
package main

import "github.com/chazu/wingsmith/cmd/wingsmith/cmd"

func main() {
	cmd.Execute()
}
