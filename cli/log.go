package cli

import (
	"io"
	"strings"

	"github.com/inconshreveable/log15"
)

/*
	Builds the logger the commands hand down into the library packages.
	Levels are the pipeline's own DEBUG/INFO/WARN/ERROR names, already
	validated; everything is routed to the journal writer.
*/
func makeLogger(level string, journal io.Writer) log15.Logger {
	lvl, err := log15.LvlFromString(strings.ToLower(level))
	if err != nil {
		panic(Error.NewWith("no such log level: "+level, SetExitCode(EXIT_BADARGS)))
	}
	log := log15.New()
	log.SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(journal, log15.TerminalFormat())))
	return log
}
