package html

import "html/template"

// CSRFCookieName is the cookie the CSRF middleware issues.
const CSRFCookieName = "X-CSRF-Token"

// CSRFFormScript injects a hidden _csrf field into POST forms based on the CSRF cookie.
func CSRFFormScript() template.HTML {
	return template.HTML(`<script>
(function () {
  function readCookie(name) {
    var parts = document.cookie ? document.cookie.split(";") : [];
    for (var i = 0; i < parts.length; i++) {
      var c = parts[i].trim();
      if (c.indexOf(name + "=") === 0) return decodeURIComponent(c.substring(name.length + 1));
    }
    return "";
  }

  function inject(root) {
    var token = readCookie("` + CSRFCookieName + `");
    if (!token) return;
    var forms = root.querySelectorAll("form[method='post'], form[method='POST']");
    for (var i = 0; i < forms.length; i++) {
      if (forms[i].querySelector("input[name='_csrf']")) continue;
      var input = document.createElement("input");
      input.type = "hidden";
      input.name = "_csrf";
      input.value = token;
      forms[i].appendChild(input);
    }
  }

  document.addEventListener("DOMContentLoaded", function () { inject(document); });
  document.addEventListener("submit", function (e) { inject(e.target.parentNode || document); }, true);
})();
</script>`)
}
