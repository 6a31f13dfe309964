// Command critpath replays recorded build traces through the critical-path
// listener and inspects stored build summaries.
//
//	critpath replay build.yaml --longest-path --store builds.db
//	critpath show --store builds.db
//	critpath show --store builds.db 4f1c...
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(defaultEnv()).Execute(); err != nil {
		os.Exit(1)
	}
}
