package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
)

var (
	errUnknownCmd   = errors.New("pdfview: unknown command")
	errAmbiguousCmd = errors.New("pdfview: ambiguous command")
)

// command represents one verb pdfview understands.
type command struct {
	handler    func()
	usageShort string
	usageLong  string
}

func (c command) String() string {
	return fmt.Sprintf("cmd: <%s> <%s>\n", c.usageShort, c.usageLong)
}

type commandMap map[string]*command

func newCommandMap() commandMap {
	return map[string]*command{}
}

func (m commandMap) register(cmdStr string, cmd command) {
	m[cmdStr] = &cmd
}

// process applies prefix completion to cmdPrefix and, on a unique match,
// parses the remaining flags and runs the handler.
func (m commandMap) process(cmdPrefix string) error {
	var cmdStr string

	for k := range m {
		if !strings.HasPrefix(k, cmdPrefix) {
			continue
		}
		if len(cmdStr) > 0 {
			return errAmbiguousCmd
		}
		cmdStr = k
	}

	if cmdStr == "" {
		return errUnknownCmd
	}

	if !flag.CommandLine.Parsed() {
		if err := flag.CommandLine.Parse(os.Args[2:]); err != nil {
			os.Exit(1)
		}
	}

	m[cmdStr].handler()
	return nil
}

// helpString returns documentation for topic, itself subject to prefix
// completion so "pdfview help pr" resolves to "prefs-dump" ambiguously
// against "prefs-roundtrip".
func (m commandMap) helpString(topic string) string {
	var topicStr string
	for k := range m {
		if !strings.HasPrefix(k, topic) {
			continue
		}
		if len(topicStr) > 0 {
			return fmt.Sprintf("Ambiguous help topic `%s`.\n", topic)
		}
		topicStr = k
	}

	cmd, ok := m[topicStr]
	if !ok || cmd.usageShort == "" {
		return fmt.Sprintf("Unknown help topic `%s`. Run 'pdfview help'.\n", topic)
	}
	return fmt.Sprintf("%s\n\n%s\n", cmd.usageShort, cmd.usageLong)
}
