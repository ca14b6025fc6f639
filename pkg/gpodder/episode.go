package gpodder

// EpisodeAction is the kind of the latest action reported for an
// episode, as carried in the status field of an EpisodeUpdate.
type EpisodeAction string

// Episode action kinds documented by the service.
const (
	ActionDownload EpisodeAction = "download"
	ActionDelete   EpisodeAction = "delete"
	ActionPlay     EpisodeAction = "play"
	ActionNew      EpisodeAction = "new"
	ActionFlattr   EpisodeAction = "flattr"
)

// Valid reports whether a is a known episode action kind. The empty
// string is valid: the status field is optional and absent when no
// action has been reported yet.
func (a EpisodeAction) Valid() bool {
	switch a {
	case ActionDownload, ActionDelete, ActionPlay, ActionNew, ActionFlattr, "":
		return true
	}
	return false
}

// String returns the wire value of the action.
func (a EpisodeAction) String() string {
	return string(a)
}
