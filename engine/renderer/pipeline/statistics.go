package pipeline

import "fmt"

// PipelineStatistics counts the device state changes actually issued since
// the last ResetStatistics. Redundant requests are not counted.
type PipelineStatistics struct {
	TextureBindingChanges uint64
	VBOBindingChanges     uint64
	VAOBindingChanges     uint64
	ProgramBindingChanges uint64
	ClearColorChanges     uint64
}

// Total is the sum of every counter.
func (s PipelineStatistics) Total() uint64 {
	return s.TextureBindingChanges + s.VBOBindingChanges + s.VAOBindingChanges + s.ProgramBindingChanges + s.ClearColorChanges
}

func (s PipelineStatistics) String() string {
	return fmt.Sprintf("Pipeline state changes:\n"+
		"\tTextures: %d,\n"+
		"\tVBO: %d,\n"+
		"\tVAO: %d,\n"+
		"\tShaders: %d,\n"+
		"\tClear color: %d",
		s.TextureBindingChanges,
		s.VBOBindingChanges,
		s.VAOBindingChanges,
		s.ProgramBindingChanges,
		s.ClearColorChanges,
	)
}
