package attachment

import "github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"

type AttachmentBuilderOption func(*attachmentImpl)

// WithLabel sets the label used to name the component textures ("<label>.color", ...).
//
// Parameters:
//   - label: the attachment label
//
// Returns:
//   - AttachmentBuilderOption: a function that sets the label
func WithLabel(label string) AttachmentBuilderOption {
	return func(a *attachmentImpl) {
		a.label = label
	}
}

// WithColorFormat sets the color format of ColorOnly and ColorDepth attachments.
//
// Parameters:
//   - format: a color format
//
// Returns:
//   - AttachmentBuilderOption: a function that sets the color format
func WithColorFormat(format device.Format) AttachmentBuilderOption {
	return func(a *attachmentImpl) {
		a.colorFormat = format
	}
}

// WithDepthFormat sets the depth format of every kind that has depth.
//
// Parameters:
//   - format: a depth format
//
// Returns:
//   - AttachmentBuilderOption: a function that sets the depth format
func WithDepthFormat(format device.Format) AttachmentBuilderOption {
	return func(a *attachmentImpl) {
		a.depthFormat = format
	}
}

// WithGeometryFormats sets the three G-buffer color formats of a DeferredGeometry attachment.
//
// Parameters:
//   - position, normal, albedo: the per-slot color formats
//
// Returns:
//   - AttachmentBuilderOption: a function that sets the G-buffer formats
func WithGeometryFormats(position, normal, albedo device.Format) AttachmentBuilderOption {
	return func(a *attachmentImpl) {
		a.geometryFormat = [3]device.Format{position, normal, albedo}
	}
}
