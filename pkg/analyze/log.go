package analyze

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var errorPrefix = color.New(color.FgRed, color.Bold).SprintFunc()("ERROR:")

func (a *Analyzer) OpenLogFile() error {
	if a.Config.LogOutput == "" {
		return nil
	}

	logFile, err := os.OpenFile(a.Config.LogOutput, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	a.logger.SetOutput(logFile)
	return nil
}

func (a *Analyzer) debugf(format string, v ...any) {
	if a.Config.Debug {
		a.logger.Printf(format, v...)
	}
}

func (a *Analyzer) errorf(format string, v ...any) {
	a.errLogger.Print(errorPrefix, " ", fmt.Sprintf(format, v...))
}
