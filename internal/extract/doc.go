// Package extract acquires the text of individual PDF pages.
//
// Text is read from the page's content stream first. Pages whose trimmed
// embedded text is shorter than ScannedPageThreshold characters are treated
// as scanned: the page is rendered alone and passed through optical
// recognition. Recognition problems never fail a page; they produce empty
// text so the batch keeps moving.
//
// The embedded-text collaborator is github.com/ledongthuc/pdf. Rendering and
// recognition are injected capabilities (render.Renderer, ocr.Engine) and
// may be absent, in which case the short embedded text is used as-is.
package extract
