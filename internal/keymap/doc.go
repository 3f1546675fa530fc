// Package keymap maps X11 keyboard layouts to console keymaps.
//
// The mapping comes from systemd's kbd-model-map, a whitespace separated
// table:
//
//	# consolelayout  xlayout  xmodel  xvariant    xoptions
//	de               de       pc105   -           terminate:ctrl_alt_bksp
//	de-latin1-nodeadkeys de   pc105   nodeadkeys  terminate:ctrl_alt_bksp
//
// Resolve scans it linearly. Variants are matched by substring, the same
// way the table's own consumers match them.
package keymap
