// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"strings"

	"github.com/jeranaias/shuaib-registry/internal/student"
)

// SystemInstruction frames both request modes.
var SystemInstruction = buildInstruction()

func buildInstruction() string {
	var sb strings.Builder
	sb.WriteString("أنت المساعد الإداري الذكي لمكتب الأستاذ مهدي علي مهدي، مندوب طلاب مدينة العوابل في اتحاد طلاب الشعيب.\n")
	sb.WriteString("مهمتك استخراج بيانات الطلاب من النصوص التي يلصقها المستخدم، والرد باللغة العربية بإيجاز ولطف.\n\n")

	sb.WriteString("الحقول المطلوبة لكل طالب:\n")
	for _, f := range student.Fields {
		sb.WriteString("- " + f + ": " + student.Label(f) + "\n")
	}

	sb.WriteString("\nقيمة village يجب أن تكون واحدة من: " + strings.Join(student.Villages(), "، ") + ".\n")
	sb.WriteString("قيمة studyLocation يجب أن تكون واحدة من: " + strings.Join(student.StudyLocations(), "، ") + ".\n")
	sb.WriteString("اكتب القيمة كما هي في القائمة تماماً.\n\n")

	sb.WriteString("اجعل isComplete صحيحة فقط إذا توفرت كل الحقول، وإلا فاجعلها خاطئة وضع أسماء الحقول الناقصة في missingFields.\n")
	sb.WriteString("إذا لم يكن النص بيانات طالب فأجب عن سؤال المستخدم بما يخص عمل المكتب.")
	return sb.String()
}
