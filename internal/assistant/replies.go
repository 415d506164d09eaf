// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"strings"

	"github.com/jeranaias/shuaib-registry/internal/student"
)

func confirmationText(r student.Record) string {
	return "✅ ممتاز! تم معالجة البيانات بنجاح:\n\n" +
		"👤 الاسم: " + r.FullName + "\n" +
		"📍 القرية: " + r.Village + "\n" +
		"🎓 التخصص: " + r.Major + "\n\n" +
		"تمت الإضافة إلى لوحة التحكم بنجاح."
}

func incompleteText(fields []string) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, "• "+fieldName(f))
	}
	return "البيانات التي قدمتها غير مكتملة، أحتاج لبعض الحقول الإضافية: \n\n" + strings.Join(lines, "\n")
}

func rejectedText(d student.Draft, fields []string) string {
	var sb strings.Builder
	sb.WriteString("بعض القيم لا تطابق القوائم المعتمدة، لذلك لم تتم إضافة السجل:\n")
	for _, f := range fields {
		sb.WriteString("\n• " + fieldName(f) + ": " + d.Get(f) + "\n")
		sb.WriteString("  القيم المعتمدة: " + strings.Join(student.Allowed(f), "، ") + "\n")
	}
	sb.WriteString("\nيرجى إعادة إرسال البيانات بإحدى القيم المعتمدة.")
	return sb.String()
}

// fieldName renders "<label> (<key>)" for known keys and the raw name
// otherwise, since the model may report free-form names.
func fieldName(f string) string {
	label := student.Label(f)
	if label == f {
		return f
	}
	return label + " (" + f + ")"
}
