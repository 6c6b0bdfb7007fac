// Package ui provides terminal output components for the kasactl CLI.
//
// Components are built with Lipgloss and follow a "render once" pattern:
// they print styled output and exit without taking over the terminal.
//
//   - Header: command banner with the parameters in use
//   - AttemptProgress: progress bar with one line per alias lookup attempt
//   - Result: success, failure and warning boxes
//   - RenderDevices: table of discovered devices
//
// Spinner runs slow work (discovery rounds, alias lookups) under a Bubble
// Tea spinner when stdout is a terminal and silently otherwise, so piped
// output stays clean.
//
// Failure boxes take their text from discovery.ShortMessage and
// discovery.TroubleshootingHints, so every resolution error shows the same
// advice wherever it surfaces.
//
// Logging stays silent unless KASACTL_LOG_LEVEL is set, leaving the styled
// output undisturbed.
package ui
