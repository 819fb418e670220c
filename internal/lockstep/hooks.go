package lockstep

// Hooks is the observer registration surface for lifecycle notifications.
// All hooks fire synchronously, in registration order, inside the tick phase
// that owns them; a hook must not block.
type Hooks struct {
	preStep      []func(step Step)
	postStep     []func(step Step)
	beforeInput  []func(msg InputMessage)
	afterInput   []func(msg InputMessage)
	syncReceived []func(events []SyncEvent, maxStep Step)
	objectAdded  []func(objectID string)
}

func (h *Hooks) OnPreStep(fn func(step Step))  { h.preStep = append(h.preStep, fn) }
func (h *Hooks) OnPostStep(fn func(step Step)) { h.postStep = append(h.postStep, fn) }

func (h *Hooks) OnBeforeInput(fn func(msg InputMessage)) { h.beforeInput = append(h.beforeInput, fn) }
func (h *Hooks) OnAfterInput(fn func(msg InputMessage))  { h.afterInput = append(h.afterInput, fn) }

func (h *Hooks) OnSyncReceived(fn func(events []SyncEvent, maxStep Step)) {
	h.syncReceived = append(h.syncReceived, fn)
}

func (h *Hooks) OnObjectAdded(fn func(objectID string)) {
	h.objectAdded = append(h.objectAdded, fn)
}

func (h *Hooks) firePreStep(step Step) {
	for _, fn := range h.preStep {
		fn(step)
	}
}

func (h *Hooks) firePostStep(step Step) {
	for _, fn := range h.postStep {
		fn(step)
	}
}

func (h *Hooks) fireBeforeInput(msg InputMessage) {
	for _, fn := range h.beforeInput {
		fn(msg)
	}
}

func (h *Hooks) fireAfterInput(msg InputMessage) {
	for _, fn := range h.afterInput {
		fn(msg)
	}
}

func (h *Hooks) fireSyncReceived(events []SyncEvent, maxStep Step) {
	for _, fn := range h.syncReceived {
		fn(events, maxStep)
	}
}

// FireObjectAdded forwards an object-added notification from the simulation
// to registered observers.
func (h *Hooks) FireObjectAdded(objectID string) {
	for _, fn := range h.objectAdded {
		fn(objectID)
	}
}
