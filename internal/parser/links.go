package parser

import (
	"fmt"

	"github.com/volttools/urdfconv/internal/models"
)

// extractLinks maps every link that declares a visual element. Links without a
// visual are skipped; a repeated name overwrites the earlier entry.
func extractLinks(root *Element, rootPath string) (map[string]models.Link, error) {
	links := make(map[string]models.Link)

	for i, el := range root.FindAll("link") {
		name, ok := el.Attr("name")
		if !ok {
			return nil, missingAttribute(el, fmt.Sprintf("%s/link[%d]", rootPath, i), "name")
		}
		path := fmt.Sprintf("%s/link[%s]", rootPath, name)

		visual := el.Find("visual")
		if visual == nil {
			continue
		}

		link, err := extractVisual(visual, path+"/visual")
		if err != nil {
			return nil, err
		}
		links[name] = link
	}

	return links, nil
}

func extractVisual(visual *Element, path string) (models.Link, error) {
	geomEl := visual.Find("geometry")
	if geomEl == nil {
		return models.Link{}, missingElement(visual, path, "geometry")
	}

	geometry, err := extractGeometry(geomEl, path+"/geometry")
	if err != nil {
		return models.Link{}, err
	}

	origin, err := extractOrigin(visual.Find("origin"), path+"/origin")
	if err != nil {
		return models.Link{}, err
	}

	return models.Link{
		Visual: models.Visual{
			Geometry: geometry,
			Origin:   origin,
		},
	}, nil
}

// extractGeometry picks the first matching shape in fixed order: box, cylinder, mesh.
func extractGeometry(geom *Element, path string) (models.Geometry, error) {
	if box := geom.Find("box"); box != nil {
		p := path + "/box"
		raw, ok := box.Attr("size")
		if !ok {
			return models.Geometry{}, missingAttribute(box, p, "size")
		}
		size, err := parseTriple(box, p, "size", raw)
		if err != nil {
			return models.Geometry{}, err
		}
		return models.BoxGeometry(size), nil
	}

	if cyl := geom.Find("cylinder"); cyl != nil {
		p := path + "/cylinder"
		radius, err := requireFloat(cyl, p, "radius")
		if err != nil {
			return models.Geometry{}, err
		}
		length, err := requireFloat(cyl, p, "length")
		if err != nil {
			return models.Geometry{}, err
		}
		return models.CylinderGeometry(radius, length), nil
	}

	if mesh := geom.Find("mesh"); mesh != nil {
		var filename *string
		if v, ok := mesh.Attr("filename"); ok {
			filename = &v
		}
		return models.MeshGeometry(filename), nil
	}

	return models.NoGeometry(), nil
}
