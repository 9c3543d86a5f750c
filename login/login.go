// Package login installs keytap as a per-user launch agent.
package login

import (
	"errors"
	"fmt"
	"html"
	"os"
	"sort"
	"strings"
)

const label = "com.keytap.agent"

var ErrUnsupported = errors.New("start on login is only supported on macOS")

// envKeys are forwarded into the agent so it starts with the same setup.
var envKeys = []string{"KEYTAP_HOTKEY", "KEYTAP_MODE", "KEYTAP_BEEP", "KEYTAP_LOG_PATH"}

func agentEnv() map[string]string {
	env := map[string]string{}
	for _, key := range envKeys {
		if v := os.Getenv(key); v != "" {
			env[key] = v
		}
	}
	return env
}

// plist renders the launch agent definition for exe and its arguments.
func plist(exe string, args []string, env map[string]string) string {
	var prog strings.Builder
	for _, a := range append([]string{exe}, args...) {
		fmt.Fprintf(&prog, "\t\t<string>%s</string>\n", html.EscapeString(a))
	}

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var envs strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&envs, "\t\t<key>%s</key>\n\t\t<string>%s</string>\n", k, html.EscapeString(env[k]))
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
%s	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>LimitLoadToSessionType</key>
	<string>Aqua</string>
	<key>EnvironmentVariables</key>
	<dict>
%s	</dict>
</dict>
</plist>
`, label, prog.String(), envs.String())
}
