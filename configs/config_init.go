package configs

import (
	"os"
	"text/template"
)

const initialConfiguration = `[main]
log_level = "{{ .Main.LogLevel }}"
dev_mode = {{ .Main.DevMode }}

[server]
host = "{{ .Server.Host }}"
port = {{ .Server.Port }}
max_upload_size = {{ .Server.MaxUploadSize }}

[dither]
algorithm = "{{ .Dither.Algorithm }}"
threshold = {{ .Dither.Threshold }}
parallel = {{ .Dither.Parallel }}
seed = {{ .Dither.Seed }}
matrix = "{{ .Dither.Matrix }}"

[images]
processor = "{{ .Images.Processor }}"
format = "{{ .Images.Format }}"
quality = {{ .Images.Quality }}
max_width = {{ .Images.MaxWidth }}
max_height = {{ .Images.MaxHeight }}
max_pixels = {{ .Images.MaxPixels }}
grayscale = {{ .Images.Grayscale }}
gamma = {{ printf "%g" .Images.Gamma | float }}
contrast = {{ printf "%g" .Images.Contrast | float }}
brightness = {{ printf "%g" .Images.Brightness | float }}

[worker]
workers = {{ .Worker.NumWorkers }}
`

var tmplFuncs = template.FuncMap{
	// TOML floats need a decimal point.
	"float": func(s string) string {
		for _, r := range s {
			if r == '.' || r == 'e' || r == 'n' || r == 'N' {
				return s
			}
		}
		return s + ".0"
	},
}

// WriteConfig writes configuration to a file.
func WriteConfig(filename string) error {
	tmpl, err := template.New("cfg").Funcs(tmplFuncs).Parse(initialConfiguration)
	if err != nil {
		return err
	}

	fd, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if err = tmpl.Execute(fd, Config); err != nil {
		defer fd.Close()
		return err
	}

	return fd.Close()
}
