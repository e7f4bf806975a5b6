package service

// Prompt templates for per-type analysis. Every template carries a {tone}
// slot for the narrative style, instructs the model to answer with a single
// JSON object and ends with "JSON:" so the response starts directly with the
// payload. The recognized response keys are all-optional; detailed_results
// maps metric name to {value, unit, normal_range, status}.

const cbcPromptEN = `You are a medical lab assistant. In a {tone} tone, analyze the following Complete Blood Count (CBC) report.
Return a single JSON object with these keys: "summary", "key_findings", "detailed_results",
"potential_causes", "recommendations", "next_steps", "disclaimer".
"detailed_results" must map each measured metric name to an object with
"value", "unit", "normal_range" (formatted as "low - high" when numeric) and "status"
(one of: high, normal, low, critical, warning, not-available).

Report:
{report_text}

JSON:`

const cbcPromptAR = `أنت مساعد مختبر طبي. حلل تقرير تعداد الدم الكامل التالي بأسلوب {tone} وأجب باللغة العربية.
أعد كائن JSON واحدًا يحتوي على المفاتيح: "summary", "key_findings", "detailed_results",
"potential_causes", "recommendations", "next_steps", "disclaimer".
يجب أن يربط "detailed_results" اسم كل مؤشر بكائن يحتوي على
"value" و"unit" و"normal_range" و"status".

التقرير:
{report_text}

JSON:`

const glucosePromptEN = `You are a medical lab assistant. In a {tone} tone, analyze the following {test_type} blood glucose report.
Return a single JSON object with these keys: "summary", "detailed_results", "lifestyle_changes",
"diet_routine", "potential_impact", "recommendations", "disclaimer".
"detailed_results" must map each metric name to {"value", "unit", "normal_range", "status"}.
Use the {test_type} reference ranges when judging status.

Report:
{report_text}

JSON:`

const glucosePromptAR = `أنت مساعد مختبر طبي. حلل تقرير سكر الدم ({test_type}) التالي بأسلوب {tone} وأجب باللغة العربية.
أعد كائن JSON واحدًا يحتوي على المفاتيح: "summary", "detailed_results", "lifestyle_changes",
"diet_routine", "potential_impact", "recommendations", "disclaimer".

التقرير:
{report_text}

JSON:`

const ogttPromptEN = `You are a medical lab assistant. In a {tone} tone, analyze the following oral glucose tolerance test (OGTT) report.
Return a single JSON object with these keys: "summary", "detailed_results", "key_findings",
"potential_implications", "recommendations", "next_steps", "disclaimer".
For timed readings, "value" may itself be an object keyed by sampling time
(e.g. {"fasting": 92, "first_hour": 168, "second_hour": 140}).

Report:
{report_text}

JSON:`

const ogttPromptAR = `أنت مساعد مختبر طبي. حلل تقرير اختبار تحمل الجلوكوز الفموي التالي بأسلوب {tone} وأجب باللغة العربية.
أعد كائن JSON واحدًا يحتوي على المفاتيح: "summary", "detailed_results", "key_findings",
"potential_implications", "recommendations", "next_steps", "disclaimer".

التقرير:
{report_text}

JSON:`

const liverPromptEN = `You are a medical lab assistant. In a {tone} tone, analyze the following liver function test report.
Return a single JSON object with these keys: "summary", "detailed_results", "key_findings",
"potential_causes", "recommendations", "next_steps", "disclaimer".
"detailed_results" must map each enzyme or marker to {"value", "unit", "normal_range", "status"}.

Report:
{report_text}

JSON:`

const liverPromptAR = `أنت مساعد مختبر طبي. حلل تقرير وظائف الكبد التالي بأسلوب {tone} وأجب باللغة العربية.
أعد كائن JSON واحدًا يحتوي على المفاتيح: "summary", "detailed_results", "key_findings",
"potential_causes", "recommendations", "next_steps", "disclaimer".

التقرير:
{report_text}

JSON:`

const kidneyPromptEN = `You are a medical lab assistant. In a {tone} tone, analyze the following kidney function test report.
Return a single JSON object with these keys: "summary", "detailed_results", "key_findings",
"potential_causes", "recommendations", "next_steps", "disclaimer".
"detailed_results" must map each marker to {"value", "unit", "normal_range", "status"}.

Report:
{report_text}

JSON:`

const kidneyPromptAR = `أنت مساعد مختبر طبي. حلل تقرير وظائف الكلى التالي بأسلوب {tone} وأجب باللغة العربية.
أعد كائن JSON واحدًا يحتوي على المفاتيح: "summary", "detailed_results", "key_findings",
"potential_causes", "recommendations", "next_steps", "disclaimer".

التقرير:
{report_text}

JSON:`

const lipidPromptEN = `You are a medical lab assistant. In a {tone} tone, analyze the following lipid profile report.
Return a single JSON object with these keys: "summary", "detailed_results", "key_findings",
"lifestyle_changes", "diet_routine", "recommendations", "long_term_outlook", "disclaimer".
"detailed_results" must map each lipid fraction to {"value", "unit", "normal_range", "status"}.

Report:
{report_text}

JSON:`

const lipidPromptAR = `أنت مساعد مختبر طبي. حلل تقرير الدهون التالي بأسلوب {tone} وأجب باللغة العربية.
أعد كائن JSON واحدًا يحتوي على المفاتيح: "summary", "detailed_results", "key_findings",
"lifestyle_changes", "diet_routine", "recommendations", "long_term_outlook", "disclaimer".

التقرير:
{report_text}

JSON:`

const hba1cPromptEN = `You are a medical lab assistant. In a {tone} tone, analyze the following HbA1c (glycated hemoglobin) report.
Return a single JSON object with these keys: "summary", "detailed_results", "potential_impact",
"lifestyle_changes", "recommendations", "long_term_outlook", "disclaimer".

Report:
{report_text}

JSON:`

const hba1cPromptAR = `أنت مساعد مختبر طبي. حلل تقرير الهيموجلوبين السكري التالي بأسلوب {tone} وأجب باللغة العربية.
أعد كائن JSON واحدًا يحتوي على المفاتيح: "summary", "detailed_results", "potential_impact",
"lifestyle_changes", "recommendations", "long_term_outlook", "disclaimer".

التقرير:
{report_text}

JSON:`

const vitaminDPromptEN = `You are a medical lab assistant. In a {tone} tone, analyze the following vitamin D report.
Return a single JSON object with these keys: "summary", "detailed_results", "potential_causes",
"lifestyle_changes", "diet_routine", "recommendations", "disclaimer".

Report:
{report_text}

JSON:`

const vitaminDPromptAR = `أنت مساعد مختبر طبي. حلل تقرير فيتامين د التالي بأسلوب {tone} وأجب باللغة العربية.
أعد كائن JSON واحدًا يحتوي على المفاتيح: "summary", "detailed_results", "potential_causes",
"lifestyle_changes", "diet_routine", "recommendations", "disclaimer".

التقرير:
{report_text}

JSON:`

const thyroidPromptEN = `You are a medical lab assistant. In a {tone} tone, analyze the following thyroid function report.
Return a single JSON object with these keys: "summary", "detailed_results", "key_findings",
"potential_causes", "potential_implications", "recommendations", "next_steps", "disclaimer".

Report:
{report_text}

JSON:`

const thyroidPromptAR = `أنت مساعد مختبر طبي. حلل تقرير وظائف الغدة الدرقية التالي بأسلوب {tone} وأجب باللغة العربية.
أعد كائن JSON واحدًا يحتوي على المفاتيح: "summary", "detailed_results", "key_findings",
"potential_causes", "potential_implications", "recommendations", "next_steps", "disclaimer".

التقرير:
{report_text}

JSON:`

const ironPromptEN = `You are a medical lab assistant. In a {tone} tone, analyze the following iron panel report.
Return a single JSON object with these keys: "summary", "detailed_results", "key_findings",
"potential_causes", "diet_routine", "recommendations", "disclaimer".

Report:
{report_text}

JSON:`

const ironPromptAR = `أنت مساعد مختبر طبي. حلل تقرير مخزون الحديد التالي بأسلوب {tone} وأجب باللغة العربية.
أعد كائن JSON واحدًا يحتوي على المفاتيح: "summary", "detailed_results", "key_findings",
"potential_causes", "diet_routine", "recommendations", "disclaimer".

التقرير:
{report_text}

JSON:`

const inflammationPromptEN = `You are a medical lab assistant. In a {tone} tone, analyze the following inflammation marker report.
Return a single JSON object with these keys: "summary", "detailed_results", "key_findings",
"potential_causes", "recommendations", "next_steps", "disclaimer".

Report:
{report_text}

JSON:`

const inflammationPromptAR = `أنت مساعد مختبر طبي. حلل تقرير مؤشرات الالتهاب التالي بأسلوب {tone} وأجب باللغة العربية.
أعد كائن JSON واحدًا يحتوي على المفاتيح: "summary", "detailed_results", "key_findings",
"potential_causes", "recommendations", "next_steps", "disclaimer".

التقرير:
{report_text}

JSON:`

const comparePromptEN = `You are a medical lab assistant. The following text contains two or more lab results to compare.
Write the comparison in a {tone} tone.
Return a single JSON object with these keys: "summary", "detailed_analysis", "key_findings",
"detailed_results", "potential_implications", "recommendations", "disclaimer".
In "detailed_analysis", describe which metrics improved, worsened or stayed stable between results.

Report:
{report_text}

JSON:`

const comparePromptAR = `أنت مساعد مختبر طبي. يحتوي النص التالي على نتيجتي تحليل أو أكثر للمقارنة. أجب باللغة العربية بأسلوب {tone}.
أعد كائن JSON واحدًا يحتوي على المفاتيح: "summary", "detailed_analysis", "key_findings",
"detailed_results", "potential_implications", "recommendations", "disclaimer".

التقرير:
{report_text}

JSON:`

const generalPromptEN = `You are a medical lab assistant. In a {tone} tone, analyze the following medical report.
Return a single JSON object. Include all keys that apply from: "summary", "lifestyle_changes",
"diet_routine", "key_findings", "potential_impact", "recommendations", "detailed_analysis",
"potential_causes", "next_steps", "disclaimer", "result_explanations", "reference_ranges",
"potential_implications", "wellness_assessment", "preventative_recommendations",
"long_term_outlook", "detailed_lab_values", "scientific_references",
"pathophysiological_explanations", "personal_summary", "emotional_support",
"individualized_recommendations", "doctor_questions", "detailed_results".
"detailed_results", when present, must map each metric name to
{"value", "unit", "normal_range", "status"}.

Report:
{report_text}

JSON:`

const generalPromptAR = `أنت مساعد مختبر طبي. حلل التقرير الطبي التالي بأسلوب {tone} وأجب باللغة العربية.
أعد كائن JSON واحدًا يتضمن كل المفاتيح المناسبة من: "summary", "lifestyle_changes",
"diet_routine", "key_findings", "potential_impact", "recommendations", "detailed_analysis",
"potential_causes", "next_steps", "disclaimer", "result_explanations", "reference_ranges",
"potential_implications", "wellness_assessment", "preventative_recommendations",
"long_term_outlook", "detailed_lab_values", "scientific_references",
"pathophysiological_explanations", "personal_summary", "emotional_support",
"individualized_recommendations", "doctor_questions", "detailed_results".

التقرير:
{report_text}

JSON:`

// Tone-keyed templates carry a {tone} slot so one template serves every
// narrative style. Examples of tone: doctor (clinical, peer-to-peer),
// executive (brief, decision-oriented), educational (explains mechanisms),
// preventative (prevention focus), technical (methods and figures),
// empathetic (reassuring, plain words).

const tonePromptEN = `You are a medical lab assistant. In a {tone} tone, analyze the following medical report,
adapting vocabulary and depth to that audience.
Return a single JSON object. Include all keys that apply from: "summary", "key_findings",
"detailed_results", "recommendations", "personal_summary", "emotional_support",
"individualized_recommendations", "doctor_questions", "wellness_assessment",
"preventative_recommendations", "scientific_references", "pathophysiological_explanations",
"disclaimer".
"detailed_results", when present, must map each metric name to
{"value", "unit", "normal_range", "status"}.

Report:
{report_text}

JSON:`

const tonePromptAR = `أنت مساعد مختبر طبي. حلل التقرير الطبي التالي بأسلوب {tone} وأجب باللغة العربية.
أعد كائن JSON واحدًا يتضمن كل المفاتيح المناسبة من: "summary", "key_findings",
"detailed_results", "recommendations", "personal_summary", "emotional_support",
"individualized_recommendations", "doctor_questions", "wellness_assessment",
"preventative_recommendations", "disclaimer".

التقرير:
{report_text}

JSON:`

// Digital-profile templates consume a digest of all stored results and ask
// for a longitudinal synthesis rather than per-metric detail.

const profilePromptEN = `You are a medical lab assistant. Below is a condensed history of a patient's past
lab analyses. Build a longitudinal health profile from it.
Return a single JSON object with exactly these keys: "overview_health_status",
"recommendations", "attention_points", "risks". Each value may be a string or a list.

History:
{results_digest}

JSON:`

const profilePromptAR = `أنت مساعد مختبر طبي. فيما يلي ملخص لتحاليل المريض السابقة. ابنِ ملفًا صحيًا
طوليًا منها وأجب باللغة العربية.
أعد كائن JSON واحدًا يحتوي بالضبط على المفاتيح: "overview_health_status",
"recommendations", "attention_points", "risks".

السجل:
{results_digest}

JSON:`
