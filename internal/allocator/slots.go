package allocator

// projectKey groups sessions that must run simultaneously.
type projectKey struct {
	Subject  string
	ExamType string
}

// project is one (subject, exam type) group in first-appearance order.
type project struct {
	key      projectKey
	sessions []Session
}

// groupProjects partitions the session list into projects, preserving the
// order in which each project first appears and the session order inside it.
func groupProjects(sessions []Session) []project {
	index := make(map[projectKey]int)
	var projects []project
	for _, session := range sessions {
		key := projectKey{Subject: session.Subject, ExamType: session.ExamType}
		i, ok := index[key]
		if !ok {
			i = len(projects)
			index[key] = i
			projects = append(projects, project{key: key})
		}
		projects[i].sessions = append(projects[i].sessions, session)
	}
	return projects
}

// pickSlot returns the first catalog slot not yet claimed by another project.
// The used set is project-scoped, separate from the occupancy ledger: a slot
// may host several rooms, but only one project.
func pickSlot(slots []TimeSlot, used map[slotKey]bool) (slotKey, bool) {
	for _, slot := range slots {
		key := slotKey{Date: slot.Date, Period: slot.Period}
		if !used[key] {
			return key, true
		}
	}
	return slotKey{}, false
}
