package domain

import (
	"errors"
	"fmt"
)

// ImageType selects the upload profile: validation rules, storage
// subdirectory and rendition behaviour.
type ImageType string

const (
	TypeCategory    ImageType = "category"
	TypeSubcategory ImageType = "subcategory"
	TypeBrand       ImageType = "brand"
	TypeCustomer    ImageType = "customer"
	TypeProduct     ImageType = "product"
	TypeSupplier    ImageType = "supplier"
	TypeSettings    ImageType = "settings"
	TypeDefault     ImageType = "default"
)

var ErrUnknownImageType = errors.New("unknown image type")

// AllImageTypes returns every enum variant. The profile table must cover
// each of them.
func AllImageTypes() []ImageType {
	return []ImageType{
		TypeCategory,
		TypeSubcategory,
		TypeBrand,
		TypeCustomer,
		TypeProduct,
		TypeSupplier,
		TypeSettings,
		TypeDefault,
	}
}

// ParseImageType fails closed: an unrecognized string is an error, never a
// silent fallback to the default profile.
func ParseImageType(s string) (ImageType, error) {
	t := ImageType(s)
	switch t {
	case TypeCategory, TypeSubcategory, TypeBrand, TypeCustomer,
		TypeProduct, TypeSupplier, TypeSettings, TypeDefault:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownImageType, s)
}

// Version names a derived rendition and bounds its longest edge.
type Version struct {
	Name    string
	MaxEdge int
	Quality int
}

// Bounds holds optional pixel-dimension limits. Zero means unbounded.
type Bounds struct {
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int
}

func (b Bounds) Empty() bool {
	return b.MinWidth == 0 && b.MinHeight == 0 && b.MaxWidth == 0 && b.MaxHeight == 0
}

// WatermarkSpec describes the optional text overlay drawn on masters.
type WatermarkSpec struct {
	Text    string
	Opacity float64
}

// Profile is the per-type upload configuration.
type Profile struct {
	Directory  string
	Extensions []string
	MIMETypes  []string
	MaxBytes   int64
	Quality    int
	Bounds     Bounds
	Watermark  *WatermarkSpec
	Versions   []Version
}

const (
	MiB = 1 << 20

	ThumbnailMaxEdge = 200
	MediumMaxEdge    = 600
	LargeMaxEdge     = 1200

	VersionThumbnail = "thumbnail"
	VersionMedium    = "medium"
	VersionLarge     = "large"
)

var defaultExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif", ".bmp", ".tiff"}

var defaultMIMETypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/avif",
	"image/bmp",
	"image/tiff",
}

// DefaultProfiles returns the storefront profile table. It is total over
// AllImageTypes; ValidateProfiles enforces that at startup.
func DefaultProfiles() map[ImageType]Profile {
	productVersions := []Version{
		{Name: VersionThumbnail, MaxEdge: ThumbnailMaxEdge, Quality: 80},
		{Name: VersionMedium, MaxEdge: MediumMaxEdge, Quality: 85},
		{Name: VersionLarge, MaxEdge: LargeMaxEdge, Quality: 90},
	}

	return map[ImageType]Profile{
		TypeCategory: {
			Directory:  "category_images",
			Extensions: defaultExtensions,
			MIMETypes:  defaultMIMETypes,
			MaxBytes:   2 * MiB,
			Quality:    85,
		},
		TypeSubcategory: {
			Directory:  "subcategory_images",
			Extensions: defaultExtensions,
			MIMETypes:  defaultMIMETypes,
			MaxBytes:   2 * MiB,
			Quality:    85,
		},
		TypeBrand: {
			Directory:  "brand_images",
			Extensions: defaultExtensions,
			MIMETypes:  defaultMIMETypes,
			MaxBytes:   2 * MiB,
			Quality:    85,
		},
		TypeCustomer: {
			Directory:  "customers",
			Extensions: defaultExtensions,
			MIMETypes:  defaultMIMETypes,
			MaxBytes:   4 * MiB,
			Quality:    80,
		},
		TypeProduct: {
			Directory:  "products",
			Extensions: defaultExtensions,
			MIMETypes:  defaultMIMETypes,
			MaxBytes:   5 * MiB,
			Quality:    90,
			Versions:   productVersions,
		},
		TypeSupplier: {
			Directory:  "suppliers",
			Extensions: defaultExtensions,
			MIMETypes:  defaultMIMETypes,
			MaxBytes:   2 * MiB,
			Quality:    85,
		},
		TypeSettings: {
			Directory:  "settings",
			Extensions: defaultExtensions,
			MIMETypes:  defaultMIMETypes,
			MaxBytes:   4 * MiB,
			Quality:    90,
		},
		TypeDefault: {
			Directory:  "uploads",
			Extensions: defaultExtensions,
			MIMETypes:  defaultMIMETypes,
			MaxBytes:   2 * MiB,
			Quality:    85,
		},
	}
}

// ValidateProfiles checks that the table has exactly one sane entry per
// enum variant.
func ValidateProfiles(profiles map[ImageType]Profile) error {
	for _, t := range AllImageTypes() {
		p, ok := profiles[t]
		if !ok {
			return fmt.Errorf("missing profile for image type %q", t)
		}
		if p.Directory == "" {
			return fmt.Errorf("profile %q: empty directory", t)
		}
		if len(p.Extensions) == 0 {
			return fmt.Errorf("profile %q: no allowed extensions", t)
		}
		if len(p.MIMETypes) == 0 {
			return fmt.Errorf("profile %q: no accepted MIME types", t)
		}
		if p.MaxBytes <= 0 {
			return fmt.Errorf("profile %q: non-positive size ceiling", t)
		}
		if p.Quality < 1 || p.Quality > 100 {
			return fmt.Errorf("profile %q: quality %d out of range", t, p.Quality)
		}
		for _, v := range p.Versions {
			if v.Name == "" || v.MaxEdge <= 0 {
				return fmt.Errorf("profile %q: invalid version %+v", t, v)
			}
			if v.Quality < 0 || v.Quality > 100 {
				return fmt.Errorf("profile %q: version %q quality out of range", t, v.Name)
			}
		}
	}
	if len(profiles) != len(AllImageTypes()) {
		return fmt.Errorf("profile table has %d entries, want %d", len(profiles), len(AllImageTypes()))
	}
	return nil
}
