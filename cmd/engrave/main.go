/*
Engrave renders score documents.

	engrave render score.html -o score.svg
	engrave render score.yaml --renderer canvas -o score.png --watch
	engrave dump score.html

Configuration is read from engrave.yaml in the current directory or in
$HOME/.config/engrave, with flags taking precedence:

	engrave:
	  width: 800
	  systemsPerLine: 2
	  renderer: svg
	tracing: go
	trace:
	  root: Error
	  engrave.score: Debug

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
