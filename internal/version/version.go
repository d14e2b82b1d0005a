package version

import (
	"fmt"
	"os"
	"runtime"
)

const (
	Version = "0.3"
)

// HasVersionArg reports whether the first argument asks for the version
func HasVersionArg() bool {
	if len(os.Args) > 1 {
		arg := os.Args[1]
		return arg == "--version" || arg == "-version" || arg == "-v" || arg == "--v" || arg == "version"
	}
	return false
}

// String is the one line version banner
func String() string {
	return fmt.Sprintf("GoKino v%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}

func ShowVersion() {
	fmt.Println(String())
}
