package dom

import "tvnav/internal/ui/element"

// AddKeyListener implements element.KeySource. Listeners run in the capture
// phase, before bubble listeners, in registration order.
func (d *Document) AddKeyListener(fn func(*element.KeyEvent)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.capture = append(d.capture, listener[func(*element.KeyEvent)]{id: id, fn: fn})
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.capture = removeListener(d.capture, id)
	}
}

// AddBubbleKeyListener registers an application-level key handler. It only
// runs when no capture listener stopped propagation.
func (d *Document) AddBubbleKeyListener(fn func(*element.KeyEvent)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.bubble = append(d.bubble, listener[func(*element.KeyEvent)]{id: id, fn: fn})
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.bubble = removeListener(d.bubble, id)
	}
}

// DispatchKey sends a key press to the focused node
func (d *Document) DispatchKey(key string) *element.KeyEvent {
	ev := element.NewKeyEvent(key, d.ActiveElement())

	d.mu.RLock()
	capture := snapshot(d.capture)
	d.mu.RUnlock()
	for _, fn := range capture {
		fn(ev)
	}
	if ev.PropagationStopped() {
		return ev
	}

	d.mu.RLock()
	bubble := snapshot(d.bubble)
	d.mu.RUnlock()
	for _, fn := range bubble {
		fn(ev)
		if ev.PropagationStopped() {
			break
		}
	}
	return ev
}

// OnBackButton implements element.BackButtonSource
func (d *Document) OnBackButton(fn func()) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.backButton = append(d.backButton, listener[func()]{id: id, fn: fn})
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.backButton = removeListener(d.backButton, id)
	}
}

// FireBackButton raises the custom backbutton signal
func (d *Document) FireBackButton() {
	d.mu.RLock()
	fns := snapshot(d.backButton)
	d.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}
