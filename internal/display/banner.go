package display

import (
	"fmt"
	"os"

	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Magenta != "" {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, ` __  __  ____    _  _     ____
|  \/  ||  _ \  | || |   / ___|  ___   _ __  __   __
| |\/| || |_) | | || |_ | |     / _ \ | '_ \ \ \ / /
| |  | ||  __/  |__   _|| |___ | (_) || | | | \ V /
|_|  |_||_|        |_|   \____| \___/ |_| |_|  \_/
`)
	if term.Magenta != "" {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
