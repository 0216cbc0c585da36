package constants

// Redis key formats
const (
	KeySubjectPosition  = "presence:position:%s" // Format: presence:position:{subject_id}
	KeyPresenceSubjects = "presence:subjects"    // Set of subject IDs with a live position
)

// Redis hash fields
const (
	FieldLatitude   = "lat"
	FieldLongitude  = "lng"
	FieldAddress    = "addr"
	FieldCapturedAt = "ts"
)
