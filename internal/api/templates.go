package api

import (
	"errors"
	"html/template"
	"io/fs"
)

func LoadTemplates(fsys fs.FS) (*template.Template, error) {
	funcs := template.FuncMap{
		// dict builds a map from alternating key/value arguments, for passing
		// several values to a partial.
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, errors.New("dict: odd number of arguments")
			}
			m := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				key, ok := pairs[i].(string)
				if !ok {
					return nil, errors.New("dict: keys must be strings")
				}
				m[key] = pairs[i+1]
			}
			return m, nil
		},
	}

	t := template.New("base").Funcs(funcs)

	patterns := []string{
		"layouts/*.html",
		"partials/*.html",
		"pages/*.html",
	}
	for _, p := range patterns {
		if matches, _ := fs.Glob(fsys, p); len(matches) == 0 {
			continue
		}
		if _, err := t.ParseFS(fsys, p); err != nil {
			return nil, err
		}
	}

	return t, nil
}
