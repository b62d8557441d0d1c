package parser

import (
	"fmt"

	"github.com/volttools/urdfconv/internal/models"
)

// extractJoints maps every joint element. Unlike links there is no filtering;
// a repeated name overwrites the earlier entry.
func extractJoints(root *Element, rootPath string) (map[string]models.Joint, error) {
	joints := make(map[string]models.Joint)

	for i, el := range root.FindAll("joint") {
		name, ok := el.Attr("name")
		if !ok {
			return nil, missingAttribute(el, fmt.Sprintf("%s/joint[%d]", rootPath, i), "name")
		}

		joint, err := extractJoint(el, fmt.Sprintf("%s/joint[%s]", rootPath, name))
		if err != nil {
			return nil, err
		}
		joints[name] = joint
	}

	return joints, nil
}

func extractJoint(el *Element, path string) (models.Joint, error) {
	jointType, ok := el.Attr("type")
	if !ok {
		return models.Joint{}, missingAttribute(el, path, "type")
	}

	parent, err := linkRef(el, path, "parent")
	if err != nil {
		return models.Joint{}, err
	}
	child, err := linkRef(el, path, "child")
	if err != nil {
		return models.Joint{}, err
	}

	var axis models.Vec3
	if axisEl := el.Find("axis"); axisEl != nil {
		p := path + "/axis"
		raw, ok := axisEl.Attr("xyz")
		if !ok {
			return models.Joint{}, missingAttribute(axisEl, p, "xyz")
		}
		if axis, err = parseTriple(axisEl, p, "xyz", raw); err != nil {
			return models.Joint{}, err
		}
	}

	origin, err := extractOrigin(el.Find("origin"), path+"/origin")
	if err != nil {
		return models.Joint{}, err
	}

	return models.Joint{
		Type:   jointType,
		Parent: parent,
		Child:  child,
		Axis:   axis,
		Origin: origin,
	}, nil
}

// linkRef reads the link attribute of the required <parent> or <child> element.
func linkRef(joint *Element, path, tag string) (string, error) {
	ref := joint.Find(tag)
	if ref == nil {
		return "", missingElement(joint, path, tag)
	}
	link, ok := ref.Attr("link")
	if !ok {
		return "", missingAttribute(ref, path+"/"+tag, "link")
	}
	return link, nil
}
