// Package myaudio reads and writes PCM WAV recordings and cuts them into
// fixed-length, overlapping chunks.
//
// Samples are held as mono float64 in [-1, 1]; stereo input is down-mixed
// on read. Files are accessed through an afero.Fs.
package myaudio
