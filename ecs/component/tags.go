package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()

type SentryTag struct{}

var SentryTagComponent = NewComponent[SentryTag]()

// AnchorTag marks rig anchors such as heads and fire points.
type AnchorTag struct {
	Name string
}

var AnchorTagComponent = NewComponent[AnchorTag]()
