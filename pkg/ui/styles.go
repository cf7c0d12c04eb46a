// Package ui renders terminal output for the docdrop CLI.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	// Colors
	primaryColor = lipgloss.Color("205") // Pinkish
	infoColor    = lipgloss.Color("39")  // Blue
	successColor = lipgloss.Color("42")  // Green
	warnColor    = lipgloss.Color("214") // Orange
	errorColor   = lipgloss.Color("160") // Red
	subtleColor  = lipgloss.Color("241") // Grey

	// Styles
	bannerStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)

	infoBadge    = badge("INFO", infoColor)
	successBadge = badge("SUCCESS", successColor)
	warnBadge    = badge("WARN", warnColor)
	errorBadge   = badge("ERROR", errorColor)

	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

func badge(label string, bg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(bg).
		Padding(0, 1).
		Bold(true).
		SetString(label)
}

// PrintBanner prints the tool name and version
func PrintBanner(version string) {
	fmt.Println(bannerStyle.Render("docdrop " + version))
	fmt.Println()
}

// Info prints an info message
func Info(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	fmt.Printf("%s %s\n", infoBadge.String(), textStyle.Render(msg))
}

// Success prints a success message
func Success(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	fmt.Printf("%s %s\n", successBadge.String(), textStyle.Render(msg))
}

// Warn prints a warning message
func Warn(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	fmt.Printf("%s %s\n", warnBadge.String(), textStyle.Render(msg))
}

// Error prints an error message
func Error(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	fmt.Printf("%s %s\n", errorBadge.String(), textStyle.Render(msg))
}

// Subtle renders s in the muted style
func Subtle(s string) string {
	return subtleStyle.Render(s)
}

// Table renders headers and rows as a bordered table
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(subtleStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	return t.String()
}
