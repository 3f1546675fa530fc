// Package journal records installer runs as JSON Lines.
//
// Each line is one event:
//
//	{"timestamp":"…","type":"status","message":"Setting up LUKS","progress":0.15}
//	{"timestamp":"…","type":"output","message":"building the system configuration..."}
//	{"timestamp":"…","type":"failure","message":"nixos-install failed","details":"…","code":9}
//
// A Journal is an installer.Reporter. The file lives outside the target
// root and a run never reads it back.
package journal
