// Package state reads the host installer's global storage.
//
// The host writes its global storage as JSON (or YAML, for files ending in
// .yaml/.yml) before it runs snowflake-install. Key names follow the host
// framework:
//
//	{
//	  "rootMountPoint": "/mnt",
//	  "firmwareType": "efi",
//	  "bootLoader": {"installPath": "/dev/sda"},
//	  "partitions": [
//	    {"device": "/dev/sda2", "mountPoint": "/", "fs": "ext4",
//	     "fsName": "luks", "claimed": true, "uuid": "…",
//	     "luksMapperName": "luks-…", "luksPassphrase": "…"}
//	  ],
//	  "hostname": "demo",
//	  "locationRegion": "Europe", "locationZone": "Berlin",
//	  "localeConf": {"LANG": "en_US.UTF-8/UTF-8", "LC_TIME": "de_DE.UTF-8/UTF-8"},
//	  "keyboardLayout": "de", "keyboardVariant": "nodeadkeys",
//	  "username": "alice", "fullname": "Alice", "autoLoginUser": "alice"
//	}
//
// Only rootMountPoint is required. keyboardVariant distinguishes a missing
// key from an empty variant; every other optional key treats "" as unset.
package state
