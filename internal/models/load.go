package models

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadRobotJSON decodes a converted robot document.
func LoadRobotJSON(r io.Reader) (*Robot, error) {
	var robot Robot
	if err := json.NewDecoder(r).Decode(&robot); err != nil {
		return nil, fmt.Errorf("decoding robot json: %w", err)
	}
	if robot.Links == nil {
		robot.Links = make(map[string]Link)
	}
	if robot.Joints == nil {
		robot.Joints = make(map[string]Joint)
	}
	return &robot, nil
}

// LoadRobotJSONFile reads a converted robot document from disk.
func LoadRobotJSONFile(path string) (*Robot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadRobotJSON(file)
}
