package lockstep

const (
	DefaultTickHz         = 60.0 // logical simulation rate
	DefaultDriftThreshold = 10   // ticks of local/server divergence tolerated
	DefaultFrameHz        = 60.0 // external frame callback rate when self-driven

	// inboundQueueDepth bounds pending server updates between ticks. A full
	// queue drops the newest payload so the tick loop never blocks on the
	// network reader.
	inboundQueueDepth = 256

	// seqNamespaceBits partitions the sequence-number space per player so
	// concurrently-connected clients never collide: the assigned player id
	// selects the high bits, the local counter fills the low bits.
	seqNamespaceBits = 40
)
