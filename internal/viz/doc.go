// Package viz renders sequences in the terminal.
//
// It provides:
//
//   - [Styles] and [Theme]: lipgloss styles for the player, with themes cycled by [NextTheme]
//   - [TimeBar], [ProgressBar], [Sparkline]: single line gauges
//   - [Map]: a Braille top-down view of entity positions and paths
//   - [PlotCurve], [PlotSeries]: asciigraph charts of curves and baked tracks
package viz
