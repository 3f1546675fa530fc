// Package i18n translates the user-facing strings of snowflake-install.
//
// Messages are keyed by their English text, the way gettext catalogs are,
// and registered with the golang.org/x/text message catalog at init:
//
//	i18n.SetLanguage("de_DE.UTF-8")
//	title := i18n.Sprintf("cryptsetup failed")
//
// Keys without a translation for the active language fall back to English.
// Raw command output is never passed through Sprintf; it is not a format.
package i18n
