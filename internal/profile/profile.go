package profile

import "sort"

// Profile bundles filter flags with output encoding settings.
type Profile struct {
	Name         string
	Photographic bool   // conservative correction for continuous-tone images
	Cartoon      bool   // aggressive correction for flat-shaded images
	Format       string // output encoder name
	Quality      int    // encoding quality 1-100, lossy formats only

	// KeepDownsampled leaves the chroma at half resolution, replicated,
	// instead of upsampling it with the magic kernel.
	KeepDownsampled bool
}

// DefaultName is the profile used for unknown names.
const DefaultName = "default"

var profiles = map[string]Profile{
	"default": {
		Name:    "default",
		Format:  "png",
		Quality: 90,
	},
	"photo": {
		Name:         "photo",
		Photographic: true,
		Format:       "jpeg",
		Quality:      95,
	},
	"cartoon": {
		Name:    "cartoon",
		Cartoon: true,
		Format:  "png",
		Quality: 90,
	},
	"archive": {
		Name:         "archive",
		Photographic: true,
		Format:       "tiff",
		Quality:      100,
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	p.Name = name
	return p
}

// Known reports whether name is a built-in profile.
func Known(name string) bool {
	_, ok := profiles[name]
	return ok
}

// Names returns the built-in profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
