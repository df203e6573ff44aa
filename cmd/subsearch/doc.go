// Command subsearch finds subtitles for a video release across several
// providers, scores every listed subtitle against the release name, and
// writes the accepted ones to a download queue manifest.
package main
