package descriptor

type VolumeDescriptorSet struct {
	Primary    *PrimaryVolumeDescriptor
	Terminator *VolumeDescriptorSetTerminator
}
