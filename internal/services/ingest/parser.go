package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/lectio/internal/models"
)

// Course transcripts open with a metadata header and then one section per
// lesson:
//
//	Course Title: MCP: Build Rich-Context AI Apps
//	Course Link: https://example.com/courses/mcp
//	Course Instructor: Elie Schoppik
//
//	Lesson 0: Introduction
//	Lesson Link: https://example.com/courses/mcp/lesson/0
//	...transcript text...
//
// Header lines are optional; a document without them becomes a single
// course titled after its file name, with the whole body as content.
var (
	courseTitlePattern  = regexp.MustCompile(`(?i)^Course Title:\s*(.+)$`)
	courseLinkPattern   = regexp.MustCompile(`(?i)^Course Link:\s*(.+)$`)
	instructorPattern   = regexp.MustCompile(`(?i)^Course Instructor:\s*(.+)$`)
	lessonMarkerPattern = regexp.MustCompile(`(?i)^Lesson\s+(\d+):\s*(.+)$`)
	lessonLinkPattern   = regexp.MustCompile(`(?i)^Lesson Link:\s*(.+)$`)
)

// lessonSection is one parsed lesson before chunking.
type lessonSection struct {
	number int
	title  string
	link   string
	body   string
}

// parsedDocument is the parse result: course metadata, lesson sections in
// document order, and the residual body when no lesson markers exist.
type parsedDocument struct {
	course  models.Course
	lessons []lessonSection
	body    string
}

// parseCourseDocument splits a transcript into course metadata and lesson
// sections. fallbackTitle (the file name) is used when no title header is
// present.
func parseCourseDocument(content, fallbackTitle string) parsedDocument {
	lines := strings.Split(strings.TrimSpace(content), "\n")

	doc := parsedDocument{
		course: models.Course{Title: fallbackTitle},
	}

	// Header block: title on the first line, link/instructor in the next
	// few lines. A first line that is not a recognized header still names
	// the course.
	bodyStart := 0
	if len(lines) > 0 {
		first := strings.TrimSpace(lines[0])
		switch {
		case first == "":
		case lessonMarkerPattern.MatchString(first):
			// Document starts straight at a lesson; no header block.
		default:
			if m := courseTitlePattern.FindStringSubmatch(first); m != nil {
				doc.course.Title = strings.TrimSpace(m[1])
			} else {
				doc.course.Title = first
			}
			bodyStart = 1
		}
	}

	for bodyStart < len(lines) && bodyStart < 4 {
		line := strings.TrimSpace(lines[bodyStart])
		if line == "" {
			bodyStart++
			continue
		}
		if m := courseLinkPattern.FindStringSubmatch(line); m != nil {
			doc.course.CourseLink = strings.TrimSpace(m[1])
			bodyStart++
			continue
		}
		if m := instructorPattern.FindStringSubmatch(line); m != nil {
			doc.course.Instructor = strings.TrimSpace(m[1])
			bodyStart++
			continue
		}
		break
	}

	var current *lessonSection
	var sectionLines []string

	flush := func() {
		if current == nil {
			return
		}
		body := strings.TrimSpace(strings.Join(sectionLines, "\n"))
		if body != "" {
			current.body = body
			doc.lessons = append(doc.lessons, *current)
			doc.course.Lessons = append(doc.course.Lessons, models.Lesson{
				LessonNumber: current.number,
				Title:        current.title,
				LessonLink:   current.link,
			})
		}
		current = nil
		sectionLines = nil
	}

	for i := bodyStart; i < len(lines); i++ {
		line := lines[i]
		m := lessonMarkerPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			if current != nil {
				sectionLines = append(sectionLines, line)
			}
			continue
		}

		flush()

		number, _ := strconv.Atoi(m[1])
		current = &lessonSection{number: number, title: strings.TrimSpace(m[2])}

		// An immediately following "Lesson Link:" line belongs to the
		// marker, not the transcript body.
		if i+1 < len(lines) {
			if lm := lessonLinkPattern.FindStringSubmatch(strings.TrimSpace(lines[i+1])); lm != nil {
				current.link = strings.TrimSpace(lm[1])
				i++
			}
		}
	}
	flush()

	// No lesson markers at all: keep the remaining text as course body.
	if len(doc.lessons) == 0 && bodyStart < len(lines) {
		doc.body = strings.TrimSpace(strings.Join(lines[bodyStart:], "\n"))
	}

	return doc
}
