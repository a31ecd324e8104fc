package domain

import "strings"

type Course string

const (
	CourseStarters Course = "Starters"
	CourseMains    Course = "Mains"
	CourseDesserts Course = "Desserts"
)

// Courses lists the closed set of courses in display order.
var Courses = []Course{CourseStarters, CourseMains, CourseDesserts}

// FilterAll is the course filter that lets every dish through.
const FilterAll = "All"

func (c Course) Valid() bool {
	switch c {
	case CourseStarters, CourseMains, CourseDesserts:
		return true
	}
	return false
}

// ParseCourse accepts a course name in any letter case.
func ParseCourse(s string) (Course, error) {
	s = strings.TrimSpace(s)
	for _, c := range Courses {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", ErrUnknownCourse
}

// ParseFilter returns FilterAll for an empty or "All" filter and the
// matching course name otherwise.
func ParseFilter(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, FilterAll) {
		return FilterAll, nil
	}
	c, err := ParseCourse(s)
	if err != nil {
		return "", err
	}
	return string(c), nil
}
