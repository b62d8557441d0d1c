package parser

import (
	"io"
	"os"

	"github.com/volttools/urdfconv/internal/models"
)

// MapDocument converts a parsed robot description tree into a Robot.
// It performs no I/O and returns no partial result on error.
func MapDocument(root *Element) (*models.Robot, error) {
	name, ok := root.Attr("name")
	if !ok {
		return nil, missingAttribute(root, root.Name, "name")
	}

	links, err := extractLinks(root, root.Name)
	if err != nil {
		return nil, err
	}
	joints, err := extractJoints(root, root.Name)
	if err != nil {
		return nil, err
	}

	robot := models.NewRobot(name)
	robot.Links = links
	robot.Joints = joints
	return robot, nil
}

// ParseURDF decodes and maps a robot description from a reader.
func ParseURDF(r io.Reader) (*models.Robot, error) {
	root, err := DecodeTree(r)
	if err != nil {
		return nil, err
	}
	return MapDocument(root)
}

// ParseURDFFile parses a robot description file.
func ParseURDFFile(filePath string) (*models.Robot, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseURDF(file)
}
