package i18n

import (
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported lists the languages with translations. English comes first and is
// the fallback for everything else.
var Supported = []language.Tag{
	language.English,
	language.German,
	language.Spanish,
}

var matcher = language.NewMatcher(Supported)

// translations maps an English key to its German and Spanish renderings.
var translations = map[string][2]string{
	"Installing SnowflakeOS.": {
		"SnowflakeOS wird installiert.",
		"Instalando SnowflakeOS.",
	},
	"Configuring SnowflakeOS": {
		"SnowflakeOS wird konfiguriert",
		"Configurando SnowflakeOS",
	},
	"Setting up LUKS": {
		"LUKS wird eingerichtet",
		"Configurando LUKS",
	},
	"Mounting swap": {
		"Auslagerungsspeicher wird eingebunden",
		"Montando la partición de intercambio",
	},
	"Generating SnowflakeOS configuration": {
		"SnowflakeOS-Konfiguration wird erzeugt",
		"Generando la configuración de SnowflakeOS",
	},
	"Installing SnowflakeOS": {
		"SnowflakeOS wird installiert",
		"Instalando SnowflakeOS",
	},
	"Failed to create /crypto_keyfile.bin": {
		"/crypto_keyfile.bin konnte nicht erstellt werden",
		"No se pudo crear /crypto_keyfile.bin",
	},
	"Check if you have enough free space on your partition.": {
		"Prüfen Sie, ob auf Ihrer Partition genügend freier Speicherplatz vorhanden ist.",
		"Compruebe si hay suficiente espacio libre en su partición.",
	},
	"cryptsetup failed": {
		"cryptsetup ist fehlgeschlagen",
		"cryptsetup falló",
	},
	"Failed to add %s to /crypto_keyfile.bin": {
		"%s konnte nicht zu /crypto_keyfile.bin hinzugefügt werden",
		"No se pudo añadir %s a /crypto_keyfile.bin",
	},
	"swapon failed to activate swap": {
		"swapon konnte den Auslagerungsspeicher nicht aktivieren",
		"swapon no pudo activar la partición de intercambio",
	},
	"failed while activating: %s": {
		"Fehler beim Aktivieren von: %s",
		"error al activar: %s",
	},
	"nixos-generate-config failed": {
		"nixos-generate-config ist fehlgeschlagen",
		"nixos-generate-config falló",
	},
	"Failed to write configuration": {
		"Konfiguration konnte nicht geschrieben werden",
		"No se pudo escribir la configuración",
	},
	"Failed to write %s": {
		"%s konnte nicht geschrieben werden",
		"No se pudo escribir %s",
	},
	"nixos-install failed": {
		"nixos-install ist fehlgeschlagen",
		"nixos-install falló",
	},
	"Installation failed to complete": {
		"Die Installation konnte nicht abgeschlossen werden",
		"La instalación no pudo completarse",
	},
	"Configuration placeholders are inconsistent": {
		"Platzhalter der Konfiguration sind inkonsistent",
		"Los marcadores de la configuración son inconsistentes",
	},
	"Invalid installer state": {
		"Ungültiger Installationszustand",
		"Estado del instalador no válido",
	},
	"Invalid installer configuration": {
		"Ungültige Installationskonfiguration",
		"Configuración del instalador no válida",
	},
}

func init() {
	for key, tr := range translations {
		if err := message.SetString(language.English, key, key); err != nil {
			panic(err)
		}
		if err := message.SetString(language.German, key, tr[0]); err != nil {
			panic(err)
		}
		if err := message.SetString(language.Spanish, key, tr[1]); err != nil {
			panic(err)
		}
	}
}

var (
	mu      sync.RWMutex
	current = language.English
	printer = message.NewPrinter(language.English)
)

// Match returns the supported language closest to a locale string such as
// "de_DE.UTF-8", "es" or "pt-BR". Unknown or empty input yields English.
func Match(locale string) language.Tag {
	locale, _, _ = strings.Cut(locale, ".")
	locale, _, _ = strings.Cut(locale, "@")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return language.English
	}

	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return language.English
	}

	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return language.English
	}
	return Supported[index]
}

// SetLanguage selects the language used by Sprintf.
// An empty locale is resolved from $LC_ALL, then $LANG.
func SetLanguage(locale string) language.Tag {
	if locale == "" {
		locale = os.Getenv("LC_ALL")
	}
	if locale == "" {
		locale = os.Getenv("LANG")
	}

	tag := Match(locale)

	mu.Lock()
	defer mu.Unlock()
	current = tag
	printer = message.NewPrinter(tag)
	return tag
}

// Current returns the active language.
func Current() language.Tag {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Sprintf formats key in the active language.
func Sprintf(key string, args ...any) string {
	mu.RLock()
	p := printer
	mu.RUnlock()
	return p.Sprintf(key, args...)
}
