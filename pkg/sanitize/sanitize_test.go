// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sanitize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/deptsite/pkg/sanitize"
)

func TestRichText_DropsScripts(t *testing.T) {
	out := sanitize.RichText(`<p>Join us <b>Friday</b></p><script>alert(1)</script>`)

	assert.Contains(t, out, "<b>Friday</b>")
	assert.NotContains(t, out, "script")
}

func TestPlainText_StripsJATS(t *testing.T) {
	in := "<jats:title>Abstract</jats:title>\n<jats:p>We study   graph &amp; network\nlayouts.</jats:p>"

	assert.Equal(t, "Abstract We study graph & network layouts.", sanitize.PlainText(in))
}

func TestRichTextPtr_Nil(t *testing.T) {
	assert.Nil(t, sanitize.RichTextPtr(nil))
}
