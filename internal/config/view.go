package config

import "reflect"

// redactedValue replaces secrets in Map output.
const redactedValue = "********"

// secretKeys are the keys whose values Map redacts.
var secretKeys = map[string]bool{
	"registry_token": true,
	"github_token":   true,
	"npmrc_content":  true,
}

// Map returns the configuration keyed by its config file keys, with
// secrets redacted. Empty secrets stay empty.
func (c *Configuration) Map() map[string]any {
	out := make(map[string]any)
	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("koanf")
		if key == "" {
			continue
		}
		value := v.Field(i).Interface()
		if secretKeys[key] && !v.Field(i).IsZero() {
			value = redactedValue
		}
		out[key] = value
	}
	return out
}
